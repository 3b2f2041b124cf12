package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"farmhelp/entities"
	"farmhelp/pkg/price/repository"
	"farmhelp/pkg/validation"
)

const maxReportedErrors = 50

type Result struct {
	BatchID  string   `json:"batch_id"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors"`
}

// Importer validates rows and appends the new ones to the store under one
// batch id. Rows already stored for the same commodity, market and date are
// skipped.
type Importer struct {
	repo repository.PriceRepository
	v    *validation.Validator
}

func New(repo repository.PriceRepository) *Importer {
	return &Importer{repo: repo, v: validation.New()}
}

// Import tags every inserted row with source. A failed insert is logged and
// counted as rejected; only a failing duplicate lookup aborts the batch.
func (im *Importer) Import(ctx context.Context, source string, rows []Row) (Result, error) {
	res := Result{BatchID: uuid.NewString(), Errors: []string{}}
	reject := func(line int, err error) {
		res.Rejected++
		if len(res.Errors) < maxReportedErrors {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
		}
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if row.Err != nil {
			reject(row.Line, row.Err)
			continue
		}
		o := row.Observation
		if err := im.v.Observation(&o); err != nil {
			reject(row.Line, err)
			continue
		}
		dup, err := im.repo.Exists(ctx, o.Commodity, o.MarketName, o.ArrivalDate)
		if err != nil {
			return res, fmt.Errorf("duplicate check: %w", err)
		}
		if dup {
			res.Skipped++
			continue
		}
		o.ID = 0
		o.Source = source
		o.BatchID = res.BatchID
		if err := im.repo.Create(ctx, &o); err != nil {
			log.Printf("[import] line %d insert failed: %v", row.Line, err)
			reject(row.Line, err)
			continue
		}
		res.Inserted++
	}
	log.Printf("[import] batch=%s source=%s inserted=%d skipped=%d rejected=%d",
		res.BatchID, source, res.Inserted, res.Skipped, res.Rejected)
	return res, nil
}

// FromObservations wraps already-built observations as rows.
func FromObservations(obs []entities.PriceObservation) []Row {
	rows := make([]Row, len(obs))
	for i, o := range obs {
		rows[i] = Row{Line: i + 1, Observation: o}
	}
	return rows
}
