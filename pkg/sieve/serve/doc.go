// Package serve exposes sieve pipelines over HTTP. A request runs one
// transient pipeline: POST /sieve/run/{max} collects the primes into a
// JSON response, GET /sieve/stream/{max} upgrades to a websocket and
// forwards each prime as it is discovered.
package serve
