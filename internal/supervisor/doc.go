// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package supervisor runs the long-lived parts of PantryRank under a suture v4
supervisor tree.

The tree has two layers so that background maintenance can crash and
restart without taking the API down:

	RootSupervisor ("pantryrank")
	├── StorageSupervisor ("storage-layer")
	│   ├── CheckpointService  (duckdb driver only)
	│   └── ImageGCService     (Badger value-log GC)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. FailureThreshold failures,
decaying at FailureDecay per second, put a supervisor into a FailureBackoff
pause. Cancelling the context passed to Serve stops every service, each
within ShutdownTimeout.

Supervisor events are logged through logging.NewSlogLogger and the
sutureslog hook, so they share the zerolog output of the rest of the
process:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddStorageService(services.NewCheckpointService(db, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
