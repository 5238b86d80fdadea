// Package pkg provides the core libraries for partboard diagram composition.
//
// # Overview
//
// Partboard builds node-and-link board diagrams from plain data records:
// templates bind record fields to visual properties, every edit runs through
// a transactional model with full undo history, and finished boards render to
// SVG, PDF, or PNG. The pkg directory is organized into four main areas:
//
//  1. [model] - Domain logic (records, transactions, undo, selection)
//  2. [template] - Scene composition (part construction, data binding, events)
//  3. [render] - Output generation (scene SVG, graphviz node-link, raster)
//  4. [store] / [cache] - Persistence backends and artifact memoization
//
// # Architecture
//
// The typical data flow through partboard:
//
//	Board Document (JSON)
//	         ↓
//	    [model] package (records + transactional edits)
//	         ↓
//	    [template] package (bindings build the part scene)
//	         ↓
//	    [layout] package (layered placement)
//	         ↓
//	    [render] package (SVG/PDF/PNG output)
//
// # Quick Start
//
// Load records into a model and render the bound scene:
//
//	import (
//	    "github.com/partboard/partboard/pkg/model"
//	    "github.com/partboard/partboard/pkg/render"
//	    "github.com/partboard/partboard/pkg/template"
//	)
//
//	// 1. Build the model
//	m := model.NewGraphModel()
//	m.AddNodeData(model.Record{"name": "Press", "status": "active"})
//	m.AddNodeData(model.Record{"name": "Mill", "status": "active"})
//	m.AddLinkData(model.Record{"from": 1, "to": 2})
//
//	// 2. Compose the scene from a template
//	d := template.New(m, template.BuiltinRegistry(), template.TemplateCard)
//
//	// 3. Render to SVG
//	svg := render.SceneSVG(d)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [model] - Graph model holding node and link records. Edits made inside a
// transaction are captured as change history; [model.UndoManager] replays
// them in either direction. A [model.Selection] tracks the primary part.
//
// [binding] - One-way data bindings from record fields to visual object
// properties, with optional converter functions. A failing converter skips
// that binding rather than poisoning the scene.
//
// [visual] - Retained visual object tree (shapes, text blocks, panels) with
// Auto, Spot, Vertical, and Horizontal arrangement.
//
// [layout] - Layered placement for node parts based on link topology.
//
// ## Composition and Rendering
//
// [template] - Templates map record shapes to visual trees. The package
// ships card, badge, and pipeline builtins and dispatches pointer events to
// per-object handlers.
//
// [render] - Scene SVG serialization, graphviz-based node-link rendering,
// and PDF/PNG conversion via rsvg-convert.
//
// ## Infrastructure
//
// [store] - Board document persistence with memory, file, Redis, and
// MongoDB backends behind one interface.
//
// [cache] - Content-addressed artifact cache so unchanged boards are not
// re-rendered.
//
// [config] - TOML configuration for the server, store, cache, and renderer.
//
// [errors] - Coded errors shared across the CLI and HTTP API.
package pkg
