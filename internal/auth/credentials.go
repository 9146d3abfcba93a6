// Package auth holds the spreadsheet-backed credential store and the
// HTTP security gate.
package auth

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sentinel errors for credential operations.
var (
	ErrInvalidCredentials = eris.New("auth: invalid credentials")
	ErrUserExists         = eris.New("auth: user already exists")
	ErrUserNotFound       = eris.New("auth: user not found")
)

// User is one credential row. Passwords are stored in the clear; the
// store inherits the dataset's spreadsheet format rather than a proper
// credential backend.
type User struct {
	Email      string
	Password   string
	IsAdmin    bool
	University string
}

// Credentials is the xlsx-backed user table. Unlike the survey stores
// it carries a single header row.
type Credentials struct {
	path string
}

// NewCredentials creates a store reading and writing the given path.
func NewCredentials(path string) *Credentials {
	return &Credentials{path: path}
}

// Login matches an email/password pair and returns the user.
func (c *Credentials) Login(email, password string) (*User, error) {
	users, err := c.load()
	if err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Register appends a new user. Duplicate emails are rejected.
func (c *Credentials) Register(u User) error {
	users, err := c.load()
	if err != nil {
		return err
	}

	u.Email = strings.TrimSpace(u.Email)
	u.Password = strings.TrimSpace(u.Password)
	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrUserExists
		}
	}

	return c.save(append(users, u))
}

// Delete removes a user by email.
func (c *Credentials) Delete(email string) error {
	users, err := c.load()
	if err != nil {
		return err
	}

	kept := users[:0]
	found := false
	for _, u := range users {
		if u.Email == email {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrUserNotFound
	}

	return c.save(kept)
}

// load reads all users. A missing file is an empty store, not an error.
func (c *Credentials) load() ([]User, error) {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := xlsx.OpenFile(c.path)
	if err != nil {
		return nil, eris.Wrap(err, "auth: open credential store")
	}
	if len(f.Sheets) == 0 {
		return nil, nil
	}

	var users []User
	for i, row := range f.Sheets[0].Rows {
		if i == 0 {
			continue // header
		}
		u := User{
			Email:      strings.TrimSpace(cell(row, 0)),
			Password:   strings.TrimSpace(cell(row, 1)),
			IsAdmin:    parseBool(cell(row, 2)),
			University: strings.TrimSpace(cell(row, 3)),
		}
		if u.Email == "" {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Credentials) save(users []User) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return eris.Wrap(err, "auth: create login dir")
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "auth: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"email", "password", "isAdmin", "university"} {
		header.AddCell().SetString(h)
	}
	for _, u := range users {
		row := sheet.AddRow()
		row.AddCell().SetString(u.Email)
		row.AddCell().SetString(u.Password)
		row.AddCell().SetString(formatBool(u.IsAdmin))
		row.AddCell().SetString(u.University)
	}

	if err := f.Save(c.path); err != nil {
		return eris.Wrap(err, "auth: save credential store")
	}
	return nil
}

func cell(row *xlsx.Row, i int) string {
	if row == nil || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i].String()
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
