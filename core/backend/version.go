package backend

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/todoapp/core/logger"
)

var (
	// Version is the version of the curent build, set with
	// -ldflags "-X github.com/relabs-tech/todoapp/core/backend.Version=..."
	Version = "unset"
)

func (b *Backend) handleVersion() {
	logger.Default().Debugln("  handle version route: /version GET")
	b.router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		data, _ := json.Marshal(map[string]string{"version": Version})
		w.Write(data)
	}).Methods(http.MethodOptions, http.MethodGet)
}
