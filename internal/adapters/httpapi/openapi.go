package httpapi

import (
	"net/http"

	"github.com/neotube/neotube/internal/httpjson"
)

// handleOpenAPI renvoie une description OpenAPI minimale de l'API.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}

	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}

	queryParam := func(name string, required bool, enum ...any) map[string]any {
		schema := map[string]any{"type": "string"}
		if len(enum) > 0 {
			schema["enum"] = enum
		}
		return map[string]any{"name": name, "in": "query", "required": required, "schema": schema}
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "neotube API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"OpenAPIDocument": map[string]any{
					"type":                 "object",
					"additionalProperties": true,
				},
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
					"required": []any{"error"},
				},
				"VideoInfo": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":            map[string]any{"type": "string"},
						"title":         map[string]any{"type": "string"},
						"thumbnail":     map[string]any{"type": "string"},
						"duration":      map[string]any{"type": "string"},
						"author":        map[string]any{"type": "string"},
						"isPlaylist":    map[string]any{"type": "boolean"},
						"playlistId":    map[string]any{"type": "string"},
						"playlistTitle": map[string]any{"type": "string"},
						"videoCount":    map[string]any{"type": "integer"},
					},
					"required": []any{"id", "title", "thumbnail", "duration", "author", "isPlaylist"},
				},
				"Settings": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"maxConcurrentStreams": map[string]any{"type": "integer", "minimum": 1},
					},
				},
			},
		},
		"paths": map[string]any{
			"/api/health": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/version": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/openapi.json": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/OpenAPIDocument")}},
			},
			"/api/events": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "SSE"}}},
			},
			"/api/video-info": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						queryParam("videoId", false),
						queryParam("playlistId", false),
					},
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/VideoInfo"),
						"400": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/download": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						queryParam("videoId", true),
						queryParam("format", true, "mp4", "mp3"),
						queryParam("quality", false),
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Binary media stream",
							"content": map[string]any{
								"audio/mpeg": map[string]any{"schema": map[string]any{"type": "string", "format": "binary"}},
								"video/mp4":  map[string]any{"schema": map[string]any{"type": "string", "format": "binary"}},
							},
						},
						"400": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/settings": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/Settings"),
						"500": jsonErr,
					},
				},
				"put": map[string]any{
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/Settings"},
							},
						},
					},
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/Settings"),
						"400": jsonErr,
						"500": jsonErr,
					},
				},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}
