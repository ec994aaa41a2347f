package persistence

import (
	"context"
	"database/sql"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/storage"
	"github.com/rs/zerolog/log"
)

const loadQuery = `SELECT code, name, symbol
				 FROM currency
				 WHERE is_available=true
				 ORDER BY position`

// Persistence reads display names and symbols
// from the currency table
type Persistence struct {
	dbConn   *sql.DB         // underlying persistence connection
	fallback storage.Catalog // used when the table yields nothing usable
}

func New(dbConn *sql.DB, fallback storage.Catalog) storage.Catalog {
	return &Persistence{
		dbConn:   dbConn,
		fallback: fallback,
	}
}

// Load implements storage.Catalog.
// Rows outside the supported set are skipped. If the result is empty or
// lacks a default currency the fallback catalog is returned instead.
func (p *Persistence) Load(ctx context.Context) ([]model.CurrencyDescriptor, error) {
	rows, err := p.dbConn.QueryContext(ctx, loadQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		currencies []model.CurrencyDescriptor
		seen       = make(map[model.CurrencyCode]bool)
	)

	for rows.Next() {
		var code string
		c := model.CurrencyDescriptor{}

		if err := rows.Scan(&code, &c.Name, &c.Symbol); err != nil {
			return nil, err
		}

		parsed, err := model.ParseCurrencyCode(code)
		if err != nil || seen[parsed] {
			log.Debug().Str("code", code).Msg("skipping unsupported currency row")
			continue
		}

		c.Code = parsed
		seen[parsed] = true
		currencies = append(currencies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	defaults := model.DefaultConversionState()
	if !seen[defaults.CurrencyA] || !seen[defaults.CurrencyB] {
		log.Warn().Int("rows", len(currencies)).Msg("currency table incomplete, using built-in catalog")
		return p.fallback.Load(ctx)
	}

	return currencies, nil
}
