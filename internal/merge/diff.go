package merge

import "github.com/MKhiriev/go-sync-keeper/models"

// Diff partitions the fields of two payloads into added (client only),
// removed (server only), modified and unchanged. Inputs that are not maps
// yield empty partitions.
func Diff(server, client any) models.Diff {
	d := models.Diff{
		Added:     map[string]models.DiffPair{},
		Removed:   map[string]models.DiffPair{},
		Modified:  map[string]models.DiffPair{},
		Unchanged: map[string]any{},
	}

	serverMap, serverOK := asMap(server)
	clientMap, clientOK := asMap(client)
	if !serverOK || !clientOK {
		return d
	}

	for k, cv := range clientMap {
		sv, inServer := serverMap[k]
		switch {
		case !inServer:
			d.Added[k] = models.DiffPair{Client: cv}
		case equal(sv, cv):
			d.Unchanged[k] = cv
		default:
			d.Modified[k] = models.DiffPair{Client: cv, Server: sv}
		}
	}
	for k, sv := range serverMap {
		if _, inClient := clientMap[k]; !inClient {
			d.Removed[k] = models.DiffPair{Server: sv}
		}
	}

	return d
}
