package errorcodes

// Stable error codes reported by the library facade and the command line
// tool. They are part of the JSON output contract and must not change.
const (
	ErrCodeSeedInvalid     = "seed_invalid"
	ErrCodeUAHRPInvalid    = "ua_hrp_invalid"
	ErrCodeCoinTypeInvalid = "coin_type_invalid"
	ErrCodeAccountInvalid  = "account_invalid"
	ErrCodeUFVKInvalid     = "ufvk_invalid"
	ErrCodeInternal        = "internal"
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeIOError         = "io_error"
)
