package domain

// ServerSettings sont les réglages modifiables à chaud du serveur proxy.
type ServerSettings struct {
	// Nombre maximum de flux amont ouverts en même temps (/api/download).
	MaxConcurrentStreams int `json:"maxConcurrentStreams"`
}

func DefaultServerSettings() ServerSettings {
	return ServerSettings{MaxConcurrentStreams: 4}
}
