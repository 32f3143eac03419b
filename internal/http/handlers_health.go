package httpx

import "net/http"

// healthHandler reports liveness for load balancers and uptime probes. The
// classroom API has no degraded mode: if the process answers, it is healthy.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "classroom-directory",
	})
}
