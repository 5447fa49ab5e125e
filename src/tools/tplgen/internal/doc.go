// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package tplgen generates builtin catalog templates from JSON definitions.
//
// A definition names the template's language, its metadata, and the tools the
// skeleton server registers. The generator writes a metadata.json and a main
// template file under the embedded catalog so the next build ships them.
package tplgen
