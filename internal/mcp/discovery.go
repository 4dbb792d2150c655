package mcp

// MethodInfo describes one supported method for discovery clients.
// Params are human-readable hints, not an enforced schema.
type MethodInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params"`
}

// Catalogue is the discovery document.
type Catalogue struct {
	JSONRPC string       `json:"jsonrpc,omitempty"`
	Methods []MethodInfo `json:"methods"`
}

// Methods returns the static description of every supported method.
func Methods() []MethodInfo {
	return []MethodInfo{
		{
			Name:        MethodListDevices,
			Description: "List devices with filters and pagination",
			Params: map[string]string{
				"status":   "online|offline|maintenance",
				"vendor":   "string (substring, case-insensitive)",
				"location": "string (substring, case-insensitive)",
				"tag":      "string (single tag exact match)",
				"q":        "string (search hostname/model)",
				"limit":    "int (1..1000)",
				"offset":   "int (>=0)",
			},
		},
		{
			Name:        MethodGetDevice,
			Description: "Fetch a single device by id",
			Params: map[string]string{
				"id": "string (device id)",
			},
		},
		{
			Name:        MethodUpdateDevice,
			Description: "Apply a shallow patch to a device",
			Params: map[string]string{
				"id":    "string (device id)",
				"patch": "object (fields to update)",
			},
		},
	}
}

// NewCatalogue returns the discovery document. The JSON-RPC flavour carries
// the protocol marker.
func NewCatalogue(jsonrpc bool) Catalogue {
	c := Catalogue{Methods: Methods()}
	if jsonrpc {
		c.JSONRPC = Version
	}
	return c
}
