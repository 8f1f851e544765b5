package form

import "context"

// Factory produces fresh forms for a control.
type Factory interface {
	Create(ctx context.Context) (*Form, error)
}

// FactoryFunc adapts a function into a Factory.
type FactoryFunc func(ctx context.Context) (*Form, error)

// Create calls the underlying function.
func (fn FactoryFunc) Create(ctx context.Context) (*Form, error) {
	return fn(ctx)
}

// NewFactory returns a Factory creating forms named "form" with the supplied
// options applied to each instance.
func NewFactory(options ...FormOption) Factory {
	return FactoryFunc(func(ctx context.Context) (*Form, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return New("form", options...), nil
	})
}
