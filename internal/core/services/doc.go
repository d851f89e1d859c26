// Package services implements the driving port interfaces.
// Services contain the generation logic and orchestrate
// calls to driven ports (codec, catalog, metrics, config).
//
// Every randomised operation takes an explicit *rand.Rand; services hold no
// random state of their own.
package services
