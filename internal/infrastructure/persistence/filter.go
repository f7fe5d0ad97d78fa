package persistence

import (
	"strings"

	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"gorm.io/gorm"
)

// listQuery describes how a list endpoint searches and sorts one table.
type listQuery struct {
	searchColumns []string
	// filters maps filter keys to column names
	filters     map[string]string
	sortFields  map[string]bool
	defaultSort string
}

var (
	customerList = listQuery{
		searchColumns: []string{"code", "name", "email"},
		filters:       map[string]string{"status": "status", "currency": "currency"},
		sortFields:    withCommon("code", "name", "status"),
		defaultSort:   "code",
	}
	supplierList = listQuery{
		searchColumns: []string{"code", "name", "email"},
		filters:       map[string]string{"status": "status", "currency": "currency"},
		sortFields:    withCommon("code", "name", "status", "lead_time_days"),
		defaultSort:   "code",
	}
	partList = listQuery{
		searchColumns: []string{"part_number", "name", "description"},
		filters:       map[string]string{"replenishment": "replenishment", "active": "active"},
		sortFields:    withCommon("part_number", "name", "unit_price"),
		defaultSort:   "part_number",
	}
	quoteList = listQuery{
		searchColumns: []string{"quote_number", "notes"},
		filters:       map[string]string{"status": "status", "customer_id": "customer_id"},
		sortFields:    withCommon("quote_number", "status", "expiration_date"),
		defaultSort:   "created_at",
	}
	salesOrderList = listQuery{
		searchColumns: []string{"order_number", "notes"},
		filters:       map[string]string{"status": "status", "customer_id": "customer_id", "quote_id": "quote_id"},
		sortFields:    withCommon("order_number", "status", "order_date", "promised_date"),
		defaultSort:   "created_at",
	}
	purchaseOrderList = listQuery{
		searchColumns: []string{"order_number", "notes"},
		filters:       map[string]string{"status": "status", "supplier_id": "supplier_id"},
		sortFields:    withCommon("order_number", "status", "order_date", "expected_date"),
		defaultSort:   "created_at",
	}
	jobList = listQuery{
		searchColumns: []string{"job_number", "part_number"},
		filters:       map[string]string{"status": "status", "part_id": "part_id", "sales_order_id": "sales_order_id"},
		sortFields:    withCommon("job_number", "status", "due_date"),
		defaultSort:   "created_at",
	}
)

func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// where applies search and column filters without pagination
func (l listQuery) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(l.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(l.searchColumns))
		args := make([]any, len(l.searchColumns))
		for i, col := range l.searchColumns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	for key, value := range filter.Filters {
		if col, ok := l.filters[key]; ok {
			query = query.Where(col+" = ?", value)
		}
	}
	return query
}

// page applies ordering and pagination
func (l listQuery) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, l.sortFields, l.defaultSort)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// findPage counts and loads one page of rows of a company scoped query.
// preload, when set, is applied to the row query only.
func findPage[M any](scoped *gorm.DB, lq listQuery, filter shared.Filter, preload func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	scoped = scoped.Session(&gorm.Session{})

	var total int64
	if err := lq.where(scoped, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := lq.page(lq.where(scoped, filter), filter)
	if preload != nil {
		query = preload(query)
	}
	var rows []M
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
