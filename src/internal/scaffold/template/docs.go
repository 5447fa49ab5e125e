// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package template manages the catalog of MCP server scaffolding templates.
//
// Templates are organized on disk under languages/<language>/<name>/ with a
// metadata.json describing the template and one or more .tmpl source files
// rendered with text/template. A set of built-in templates is embedded in the
// binary and used whenever the on-disk catalog does not override them.
//
// The catalog can be reloaded automatically when the template directory
// changes, using an fsnotify watcher.
package template
