package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// gatewayServer serves a handful of fixed gateway routes.
type gatewayServer struct {
	*httptest.Server

	hits atomic.Int64
}

func newGatewayServer(t *testing.T) *gatewayServer {
	t.Helper()

	gateway := &gatewayServer{}
	gateway.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gateway.hits.Add(1)

		base := "http://" + request.Host + "/v1/public"

		var results []interface{}

		switch request.URL.Path {
		case "/v1/public/characters/1009610":
			results = []interface{}{spiderMan(base)}
		case "/v1/public/characters":
			results = []interface{}{
				spiderMan(base),
				map[string]interface{}{"id": 1009368, "name": "Iron Man", "resourceURI": base + "/characters/1009368"},
			}
		case "/v1/public/comics/21366":
			results = []interface{}{map[string]interface{}{
				"id": 21366, "title": "Avengers: The Initiative (2007) #14", "resourceURI": base + "/comics/21366",
			}}
		case "/v1/public/comics":
			results = []interface{}{}
		default:
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"code":404,"status":"We couldn't find that resource"}`))

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"code":            http.StatusOK,
			"status":          "Ok",
			"attributionText": "Data provided by Marvel. © 2026 MARVEL",
			"attributionHTML": `<a href="http://marvel.com">Data provided by Marvel. © 2026 MARVEL</a>`,
			"data": map[string]interface{}{
				"offset": 0, "limit": 100, "total": len(results), "count": len(results), "results": results,
			},
		})
	}))

	t.Cleanup(gateway.Close)

	return gateway
}

func spiderMan(base string) map[string]interface{} {
	return map[string]interface{}{
		"id":          1009610,
		"name":        "Spider-Man",
		"description": "Bitten by a radioactive spider.",
		"resourceURI": base + "/characters/1009610",
		"thumbnail":   map[string]interface{}{"path": "http://i.annihil.us/u/prod/marvel/i/mg/3/50/526548a343e4b", "extension": "jpg"},
		"comics": map[string]interface{}{
			"available":     1,
			"returned":      1,
			"collectionURI": base + "/characters/1009610/comics",
			"items": []interface{}{
				map[string]interface{}{"resourceURI": base + "/comics/21366", "name": "Avengers: The Initiative (2007) #14"},
			},
		},
	}
}

// configureGateway points the global configuration at server and resets it
// when the test ends.
func configureGateway(t *testing.T, server *gatewayServer) {
	t.Helper()

	viper.Reset()
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))
	viper.Set("api", server.URL+"/v1/public")
	viper.Set("public_key", "public")
	viper.Set("private_key", "private")
	viper.Set("insecure", true)
	viper.Set("output", "table")

	t.Cleanup(viper.Reset)
}

// executeCommand runs cmd with args and returns what it wrote to stdout.
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		return stdout.String(), fmt.Errorf("%w (stderr: %s)", err, stderr.String())
	}

	return stdout.String(), nil
}
