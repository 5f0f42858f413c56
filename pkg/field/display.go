package field

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formfield/pkg/model"
)

// BooleanText renders a boolean value for display. Anything that is not a
// bool renders as the blank option.
func BooleanText(value any) string {
	b, ok := value.(bool)
	if !ok {
		return BlankOption
	}
	if b {
		return "Yes"
	}
	return "No"
}

// DisplayText renders the binder's current value the way its widget shows it.
func (b *Binder) DisplayText() string {
	value := b.ctrl.Value()
	switch b.Kind() {
	case model.KindBoolean:
		return BooleanText(value)
	case model.KindInstant:
		if b.dateValue == nil {
			return ""
		}
		return b.dateValue.String()
	default:
		return stringify(value)
	}
}

// InputText renders the current value for a text input or dropdown: nil is
// empty, numbers use their shortest form.
func (b *Binder) InputText() string {
	return stringify(b.ctrl.Value())
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
