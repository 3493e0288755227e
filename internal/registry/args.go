package registry

import (
	"fmt"
	"time"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

// Args is the bound parameter set handed to a Builder.
type Args map[string]any

func typeMismatch(name, want string, v any) error {
	return apierr.BadDataf("registry.args", "field %q must be %s, got %T", name, want, v)
}

func (a Args) String(name string) (string, error) {
	switch v := a[name].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", typeMismatch(name, "a string", v)
	}
}

func (a Args) Bool(name string) (bool, error) {
	switch v := a[name].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, typeMismatch(name, "a boolean", v)
	}
}

// Int accepts JSON numbers, which decode as float64, as long as they are whole.
func (a Args) Int(name string) (int, error) {
	switch v := a[name].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, typeMismatch(name, "an integer", v)
		}
		return int(v), nil
	default:
		return 0, typeMismatch(name, "an integer", v)
	}
}

func (a Args) Time(name string) (*time.Time, error) {
	switch v := a[name].(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apierr.BadDataf("registry.args", "field %q must be an RFC3339 timestamp", name)
		}
		return &t, nil
	default:
		return nil, typeMismatch(name, "a timestamp", v)
	}
}

// Entity returns a resolved reference of type T, or nil when absent.
func Entity[T entity.Entity](a Args, name string) (T, error) {
	var zero T
	v, ok := a[name]
	if !ok || v == nil {
		return zero, nil
	}
	e, ok := v.(T)
	if !ok {
		return zero, apierr.New(apierr.KindInternal, "registry.args", fmt.Sprintf("field %q holds %T", name, v), nil)
	}
	return e, nil
}
