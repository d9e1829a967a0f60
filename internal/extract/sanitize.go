package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// sanitizeFields prunes a raw model document before schema validation:
// unknown keys are dropped (models love to volunteer extras), null and
// empty-string optional values are removed, and surviving string values are
// trimmed. Required keys are never touched beyond trimming, so a genuinely
// missing required field still fails validation.
func sanitizeFields(raw []byte, allowed map[string]bool) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)
	for k, v := range m {
		required, known := allowed[k]
		if !known {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		switch t := v.(type) {
		case nil:
			if !required {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" && !required {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}
