package report

import (
	"encoding/base64"
	"strings"

	"github.com/rotisserie/eris"
)

const pngDataPrefix = "data:image/png;base64,"

// ErrBadChart marks a chart payload that is not a base64 PNG data URI.
var ErrBadChart = eris.New("report: chart is not a base64 PNG data URI")

// DecodeChart validates and decodes a client-rendered chart image.
func DecodeChart(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, pngDataPrefix) {
		return nil, ErrBadChart
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, pngDataPrefix))
	if err != nil {
		return nil, eris.Wrap(ErrBadChart, err.Error())
	}
	return raw, nil
}

// chartTitle turns a chart key into a page heading. Browsers sometimes
// send the stringified DOM node instead of a name.
func chartTitle(key string) string {
	if key == "" || strings.HasPrefix(key, "[object ") {
		return "Chart"
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
