package sqlite

import (
	"fmt"

	"github.com/louisbranch/mathic/internal/services/game/storage"
)

type listEventsSQLPlan struct {
	whereClause string
	params      []any
	orderClause string
	limitClause string
}

func buildListEventsSQLPlan(filter storage.EventFilter) listEventsSQLPlan {
	whereClause := "1 = 1"
	var params []any
	if filter.SessionID != "" {
		whereClause += " AND session_id = ?"
		params = append(params, filter.SessionID)
	}

	// The cursor direction follows the sort order.
	if filter.AfterSeq > 0 {
		if filter.Descending {
			whereClause += " AND seq < ?"
		} else {
			whereClause += " AND seq > ?"
		}
		params = append(params, filter.AfterSeq)
	}

	orderClause := "ORDER BY seq ASC"
	if filter.Descending {
		orderClause = "ORDER BY seq DESC"
	}

	limitClause := ""
	if filter.Limit > 0 {
		limitClause = fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	return listEventsSQLPlan{
		whereClause: whereClause,
		params:      params,
		orderClause: orderClause,
		limitClause: limitClause,
	}
}
