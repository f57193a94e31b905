package utils

//go:generate $MOCKGEN -source=value_provider.go -destination=mocks/value_provider_mock.go

// ValueProvider is an interface that defines a method for retrieving a header value.
type ValueProvider interface {
	// GetValue returns the value to use.
	GetValue() string
}

// StaticValueProvider is a basic implementation of the ValueProvider interface.
// It provides a static value that is set during initialization.
type StaticValueProvider struct {
	// value is the value to return.
	value string
}

// NewStaticValueProvider creates and returns a new instance of StaticValueProvider.
func NewStaticValueProvider(value string) ValueProvider {
	return &StaticValueProvider{value: value}
}

// GetValue returns the stored value.
func (p *StaticValueProvider) GetValue() string {
	return p.value
}
