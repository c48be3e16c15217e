package api

import "net/http"

// wellKnownManifest is the static JSON manifest for /.well-known/wsp.json.
const wellKnownManifest = `{
  "name": "WSP",
  "description": "Weekly task planning service with fiscal-year calendars",
  "version": "0.1.0",
  "api_base": "/api/v1",
  "auth": {
    "type": "bearer",
    "header": "Authorization"
  },
  "endpoints": {
    "login": "/api/v1/auth/login",
    "users": "/api/v1/users",
    "tasks": "/api/v1/users/{id}/tasks",
    "focus": "/api/v1/focus",
    "export": "/api/v1/users/{id}/export"
  },
  "health": "/health"
}`

// WellKnownHandler returns the static WSP well-known manifest.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wellKnownManifest))
}
