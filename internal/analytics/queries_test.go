//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracklab/athletics-dwh/internal/reconcile"
)

// Every season label the date dimension can emit must have a pivot
// column, and no pivot column may name a season the dimension never
// writes, otherwise that column is silently NULL for every row.
func TestPivotSeasonsMatchDateDimension(t *testing.T) {
	columns := make(map[string]bool, len(pivotSeasons))
	for _, s := range pivotSeasons {
		columns[s] = true
	}

	emitted := make(map[string]bool)
	for month := 1; month <= 12; month++ {
		season := reconcile.Season(month)
		emitted[season] = true
		assert.True(t, columns[season],
			"season %q (month %d) has no pivot column", season, month)
	}

	for _, s := range pivotSeasons {
		assert.True(t, emitted[s],
			"pivot column %q matches no month's season", s)
	}
}
