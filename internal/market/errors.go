package market

import "errors"

// Tiga keluarga error yang dibedakan di boundary HTTP: input salah, data
// tidak ada, dan dependency (DB/cache) bermasalah.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDependency = errors.New("dependency unavailable")

	ErrVendorNotFound  = errors.New("vendor not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
