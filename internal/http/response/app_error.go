package response

// AppError 带业务状态码与 i18n key 的错误
type AppError struct {
	Code int
	Key  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Key
	}
	return e.Key + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, key string, err error) *AppError {
	return &AppError{
		Code: code,
		Key:  key,
		Err:  err,
	}
}
