package cmd

import (
	"sort"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/deppfellow/events-api/internal/handler"
	"github.com/deppfellow/events-api/internal/lib/utils"
	"github.com/deppfellow/events-api/internal/router"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the registered HTTP routes as JSON",
	Long: `Print every method and path the router registers. No configuration,
database or Redis is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.PrintJSON(cmd.OutOrStdout(), listRoutes())
	},
}

func listRoutes() []routeInfo {
	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Disabled: true}}},
		Logger: &log,
	}

	e := router.NewRouter(s, &handler.Handlers{
		Events:  handler.NewEventHandler(s, nil),
		Health:  handler.NewHealthHandler(s),
		OpenAPI: handler.NewOpenAPIHandler(s),
	})

	var routes []routeInfo
	for _, r := range e.Routes() {
		routes = append(routes, routeInfo{Method: r.Method, Path: r.Path})
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}
