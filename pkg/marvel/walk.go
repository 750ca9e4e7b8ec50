package marvel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Walk resolves a dotted path such as "characters.0.events.0.name" starting
// at root. Field segments go through Get and numeric segments index into
// collections or plain lists, so every hop triggers the same lazy loads as
// direct access. A hop that resolves to nothing yields an absent Value.
func Walk(ctx context.Context, root Entity, path string) (Value, error) {
	current := EntityValue(root)
	if path == "" {
		return current, nil
	}

	for position, segment := range strings.Split(path, ".") {
		if segment == "" {
			return Value{}, fmt.Errorf("%w: empty segment at position %d", ErrInvalidPath, position)
		}

		next, err := step(ctx, current, segment)
		if err != nil {
			return Value{}, fmt.Errorf("resolving %q: %w", segment, err)
		}

		if !next.Present() {
			return next, nil
		}

		current = next
	}

	return current, nil
}

func step(ctx context.Context, current Value, segment string) (Value, error) {
	switch current.Kind() {
	case KindEntity:
		return current.Entity().Get(ctx, segment)
	case KindCollection:
		index, err := strconv.Atoi(segment)
		if err != nil {
			return Value{}, fmt.Errorf("%w: collection index %q is not a number", ErrInvalidPath, segment)
		}

		entity, err := current.Collection().At(ctx, index)
		if err != nil || entity == nil {
			return Value{}, err
		}

		return EntityValue(entity), nil
	case KindScalar:
		return stepScalar(current, segment)
	default:
		return Value{}, fmt.Errorf("%w: cannot descend into %s value", ErrInvalidPath, current.Kind())
	}
}

func stepScalar(current Value, segment string) (Value, error) {
	if object, ok := current.Map(); ok {
		raw, exists := object[segment]
		if !exists {
			return Value{}, nil
		}

		return ScalarValue(raw), nil
	}

	if list, ok := current.List(); ok {
		index, err := strconv.Atoi(segment)
		if err != nil {
			return Value{}, fmt.Errorf("%w: list index %q is not a number", ErrInvalidPath, segment)
		}

		if index < 0 || index >= len(list) {
			return Value{}, nil
		}

		return ScalarValue(list[index]), nil
	}

	return Value{}, fmt.Errorf("%w: cannot descend into %s value", ErrInvalidPath, current.Kind())
}
