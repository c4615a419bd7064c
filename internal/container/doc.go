// SPDX-License-Identifier: MPL-2.0

// Package container runs one-shot commands in Docker or Podman containers.
//
// wasmforge uses it for reproducible contract builds: the project directory
// is mounted into an optimizer image and the build runs inside it. Engines
// shell out to the docker/podman CLI; the exec function is injectable so
// tests never need a real engine.
package container
