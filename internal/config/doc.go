// Package config provides the configuration store of RT-DC datasets.
//
// A Configuration maps section names ("experiment", "setup", "filtering",
// "user", ...) to Sections. A Section is a case-insensitive map from key
// to a typed value.Value. When schema checks are enabled, every assignment
// is verified against the schema registry and coerced to the canonical
// type of its key.
//
// # Basic Usage
//
//	reg := registry.NewWithDefaults()
//	cfg, err := config.New(reg, config.WithFiles("M1_para.ini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	setup, _ := cfg.Section("setup")
//	width, _ := setup.Get("Channel Width")
//	setup.Set("flow rate", value.Float(0.16))
//
//	if err := cfg.Save("out.ini"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Diagnostics
//
// Invalid assignments never fail. They are dropped and described by a
// Diagnostic carrying a DiagnosticCode:
//
//   - CodeUnknownSection, CodeUnknownKey, CodeUnknownFilterFeature
//   - CodeDeprecatedSection, CodeDeprecatedKey
//   - CodeEmptyValue, CodeBadValue, CodeBadUserKey
//   - CodeWrongType (advisory, the coerced value is still stored)
//
// Diagnostics are returned from Section.Set, collected by the owning
// Configuration and forwarded to an optional DiagnosticHandler.
//
// Apart from I/O errors, the only hard failure is a defaults table that
// misses a filtering key declared by the schema (ErrMissingDefault).
package config
