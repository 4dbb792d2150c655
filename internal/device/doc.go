// Package device provides the network device inventory for netmcp.
//
// The inventory is an in-memory, ordered collection of device records seeded
// at startup. It answers filtered, paginated queries for the REST and MCP
// endpoints and applies shallow patches coming from UpdateDevice.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────────────┐
//	│                             Inventory                              │
//	│                                                                    │
//	│  ┌──────────────────┐   ┌──────────────────┐   ┌────────────────┐  │
//	│  │      Store       │   │  Filter Engine   │   │     Patch      │  │
//	│  │    (store.go)    │──▶│   (filter.go)    │   │   (patch.go)   │  │
//	│  │                  │   │                  │   │                │  │
//	│  │ • Lookup by id   │   │ • Predicates     │   │ • Allow-list   │  │
//	│  │ • Atomic patches │   │ • Pagination     │   │ • Type checks  │  │
//	│  │ • RWMutex        │   │ • {total, items} │   │ • Null clears  │  │
//	│  └──────────────────┘   └──────────────────┘   └────────────────┘  │
//	│           ▲                                                        │
//	│           │ seed.go (built-in samples or YAML seed file)           │
//	└───────────┴────────────────────────────────────────────────────────┘
//
// # Usage
//
//	store, err := device.NewStore(device.SampleDevices())
//	if err != nil {
//	    return err
//	}
//	store.SetLogger(log)
//
//	res, err := store.Query(device.Criteria{Tag: "edge"}, device.DefaultPage())
//
//	patch, err := device.ParsePatch(map[string]any{"hostname": "ap-1-updated"})
//	if err != nil {
//	    return err // unknown field, immutable id or bad value
//	}
//	updated, err := store.ApplyPatch("dev3", patch)
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
//
// # Thread Safety
//
// Store methods are safe for concurrent use. Returned devices are copies.
package device
