package stackexchange

import (
	"strconv"
	"time"
)

// The Stack Exchange dumps carry every value as an XML attribute string.
// Columns are coerced by name alone, the same way in every table: a column
// named Id is a nullable integer whether it appears in Posts or Badges.

// intFields are coerced to nullable BIGINT.
var intFields = map[string]bool{
	"Id":               true,
	"PostTypeId":       true,
	"AcceptedAnswerId": true,
	"ParentId":         true,
	"Score":            true,
	"ViewCount":        true,
	"OwnerUserId":      true,
	"LastEditorUserId": true,
	"AnswerCount":      true,
	"CommentCount":     true,
	"FavoriteCount":    true,
	"UserId":           true,
	"PostId":           true,
	"VoteTypeId":       true,
	"CommentId":        true,
	"BadgeId":          true,
	"TagId":            true,
}

// dateFields are coerced to nullable TIMESTAMP.
var dateFields = map[string]bool{
	"CreationDate":       true,
	"LastEditDate":       true,
	"LastActivityDate":   true,
	"ClosedDate":         true,
	"CommunityOwnedDate": true,
	"DeletionDate":       true,
	"Date":               true,
}

// dateLayouts covers the ISO-8601 shapes seen in the dumps. Post timestamps
// carry milliseconds, badge dates sometimes do not.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// columnType returns the DuckDB column type for an attribute name.
func columnType(name string) string {
	switch {
	case intFields[name]:
		return "BIGINT"
	case dateFields[name]:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// coerceValue converts a raw attribute string into the driver value for its
// column. Unparseable or empty values become nil, never an error: the dumps
// contain blanks and garbage and conversion must not stop for them.
func coerceValue(column, raw string) any {
	switch {
	case intFields[column]:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case dateFields[column]:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
		return nil
	default:
		return raw
	}
}
