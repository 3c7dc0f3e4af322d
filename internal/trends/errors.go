package trends

// PersistError is returned when a posting and its skills could not be saved.
type PersistError struct {
	URL     string
	Message string
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.URL + ": " + e.Cause.Error()
	}
	return e.Message + ": " + e.URL
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
