package google

import (
	"fmt"
	"strconv"
	"strings"

	"ratecalc/internal/catalog"
	"ratecalc/internal/core"
)

// parseRateSheet converts a values matrix (as returned by Sheets API) into
// catalog items. The first row is the header; columns are located by name
// (Name, Category, Stack, Roll, Loose, Value, Icon) so their order is free.
// Rows without a name are skipped.
func parseRateSheet(values [][]interface{}) ([]core.Item, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty rate sheet", catalog.ErrInvalidData)
	}
	headers := toStrings(values[0])
	col := map[string]int{}
	for _, h := range []string{"Name", "Category", "Stack", "Roll", "Loose", "Value", "Icon"} {
		col[h] = indexOf(headers, h)
	}
	if col["Name"] == -1 || col["Category"] == -1 {
		missing := make([]string, 0, 2)
		if col["Name"] == -1 {
			missing = append(missing, "Name")
		}
		if col["Category"] == -1 {
			missing = append(missing, "Category")
		}
		return nil, fmt.Errorf("%w: unexpected rate sheet header: missing %s; got headers=%v",
			catalog.ErrInvalidData, strings.Join(missing, ","), headers)
	}

	var items []core.Item
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		name := safeGet(row, col["Name"])
		if name == "" {
			continue
		}
		item, err := parseRateRow(row, col, name)
		if err != nil {
			// Sheet rows are 1-based
			return nil, fmt.Errorf("%w: row %d (%s): %v", catalog.ErrInvalidData, i+1, name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRateRow(row []string, col map[string]int, name string) (core.Item, error) {
	category, err := core.ParseCategory(safeGet(row, col["Category"]))
	if err != nil {
		return core.Item{}, err
	}
	icon := core.Icon(strings.ToLower(safeGet(row, col["Icon"])))

	switch category {
	case core.CategoryComposite:
		var cash core.Denominations
		if cash.Stack, err = parseCount(safeGet(row, col["Stack"])); err != nil {
			return core.Item{}, fmt.Errorf("stack: %w", err)
		}
		if cash.Roll, err = parseCount(safeGet(row, col["Roll"])); err != nil {
			return core.Item{}, fmt.Errorf("roll: %w", err)
		}
		if cash.Loose, err = parseCount(safeGet(row, col["Loose"])); err != nil {
			return core.Item{}, fmt.Errorf("loose: %w", err)
		}
		return core.NewCompositeItem(name, icon, cash), nil
	default:
		raw := strings.TrimPrefix(safeGet(row, col["Value"]), "$")
		cents, err := core.ParseDecimalToCents(raw)
		if err != nil {
			return core.Item{}, fmt.Errorf("value %q: %w", raw, err)
		}
		return core.NewFlatItem(name, icon, core.Money{Cents: cents}), nil
	}
}

// parseCount reads a denomination count. Blank cells are zero; the API
// may render whole numbers as "2" or "2.0".
func parseCount(s string) (int64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".0")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return n, nil
}
