package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/classifier"
	"github.com/campuspulse/wellbeing-cli/internal/normalize"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/store"
)

// env bundles the shared components commands build from config.
type env struct {
	schema *schema.Schema
	norm   *normalize.Normalizer
	clf    classifier.Classifier
	db     store.Store
}

// initEnv constructs the schema, normalizer, classifier, and
// operational store. withStore is false for commands that only touch
// the spreadsheet files.
func initEnv(ctx context.Context, withStore bool) (*env, error) {
	n, err := normalize.New()
	if err != nil {
		return nil, err
	}

	clf, err := classifier.LoadModel(cfg.Classifier.ModelPath)
	if err != nil {
		return nil, err
	}

	e := &env{
		schema: schema.Default(),
		norm:   n,
		clf:    clf,
	}

	if withStore {
		db, err := store.NewSQLite(cfg.Data.OperationalDB())
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		e.db = db
	}

	return e, nil
}

func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			zap.L().Warn("close operational store", zap.Error(err))
		}
	}
}
