package frameio

import (
	"encoding/json"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// decodeItems parses a JSON array of item objects, keeping the raw
// object of each as its metadata bag. Malformed entries are skipped;
// a malformed item must not sink its siblings.
func decodeItems(raw json.RawMessage) ([]domain.Item, error) {
	var objs []map[string]any
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(objs))
	for _, obj := range objs {
		item := decodeItem(obj)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeItem extracts the typed fields from a raw item object.
func decodeItem(obj map[string]any) domain.Item {
	return domain.Item{
		ID:       stringField(obj, "id"),
		Name:     stringField(obj, "name"),
		Kind:     domain.ItemKind(stringField(obj, "type")),
		ParentID: firstStringField(obj, "parent_id", "parent_asset_id"),
		Metadata: obj,
	}
}

// stringField returns obj[key] when it is a string, else "".
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// firstStringField returns the first non-empty string among keys.
func firstStringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(obj, k); s != "" {
			return s
		}
	}
	return ""
}
