// Package extract turns free-text Indian addresses into structured components
// by prompting a generative model with a fixed JSON schema. Responses are
// normalized once, right after parsing, so downstream code sees a single
// typed shape regardless of which key spellings the model chose.
package extract
