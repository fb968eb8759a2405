package app

import "errors"

var (
	ErrDownloadInProgress = errors.New("a download is already in progress")
	ErrNoContent          = errors.New("no content loaded")
	ErrNoOptionSelected   = errors.New("no download option selected")
)

// Codes d'erreur stables, exposés au rendu et dans les logs.
const (
	CodeValidation    = "validation_error"
	CodeNetwork       = "network_error"
	CodeAPI           = "api_error"
	CodeDownload      = "download_error"
	CodeStorage       = "storage_error"
	CodeInvalidParams = "invalid_params"
	CodeUpstream      = "upstream_error"
)

// CodedError porte un code stable en plus du message.
// Status est renseigné pour les réponses HTTP en échec (api_error).
type CodedError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// ErrorCode renvoie le code d'une CodedError de la chaîne, ou "".
func ErrorCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// UserMessage est le texte montré à l'utilisateur: le message serveur tel quel
// pour une api_error, sinon le message complet.
func UserMessage(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) && coded.Code == CodeAPI && coded.Message != "" {
		return coded.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
