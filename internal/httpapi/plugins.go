package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prismdash/prism/internal/logging"
)

func writeRawJSON(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *server) handlePluginList(w http.ResponseWriter, r *http.Request) {
	raw, err := s.deps.Plugins.List(r.Context())
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	writeRawJSON(w, raw)
}

func (s *server) handlePluginSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeErrorFromErr(w, r, requestError("query is required"))
		return
	}

	raw, err := s.deps.Plugins.Search(r.Context(), query)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	writeRawJSON(w, raw)
}

func (s *server) handlePluginInstall(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	identity, _ := identityFrom(r.Context())

	var body struct {
		PluginID int `json:"pluginId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PluginID <= 0 {
		writeErrorFromErr(w, r, requestError("pluginId is required"))
		return
	}

	resource, err := s.deps.Plugins.Resource(r.Context(), body.PluginID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	jar, err := s.deps.Plugins.Download(r.Context(), body.PluginID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}

	filename := jarFilename(resource.Name)
	uploadURL, err := s.deps.Panel.UploadURL(r.Context(), serverID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if err := s.deps.Panel.UploadFile(r.Context(), uploadURL, filename, "application/java-archive", jar); err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if err := s.deps.Panel.RenameFile(r.Context(), serverID, "/", filename, "plugins/"+filename); err != nil {
		writeErrorFromErr(w, r, err)
		return
	}

	s.logActivity(r, serverID, "plugin.install", fmt.Sprintf("%s installed %s", identity.Username, resource.Name))
	logging.Infof("installed plugin %q on server %s", resource.Name, serverID)

	WriteJSON(w, http.StatusOK, map[string]string{"message": "plugin installed", "file": "plugins/" + filename})
}

// jarFilename derives a safe jar name from a marketplace resource title.
func jarFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		b.WriteString("plugin")
	}
	return b.String() + ".jar"
}
