// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/relabs-tech/todoapp/core/logger"
)

func (b *Backend) handleCORS() {
	origin := "*"
	if b.siteURL != "" {
		origin = b.siteURL
	}
	logger.Default().Debugln("CORS enabled for origin", origin)
	corsMiddleware := handlers.CORS(
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"}),
		handlers.ExposedHeaders([]string{"*"}),
		handlers.MaxAge(86400), // 24 hours
	)
	b.router.Use(corsMiddleware)
}
