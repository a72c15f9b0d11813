package ptr

// Ptr возвращает указатель на значение
func Ptr[T any](v T) *T {
	return &v
}

// Value возвращает значение по указателю или нулевое значение типа
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
