// Package discovery locates git working copies directly beneath a projects folder.
//
// Discovery is deliberately one level deep: repositories nested further are not
// reported. Children are ordered by directory name so that every downstream
// artifact is deterministic regardless of filesystem enumeration order.
package discovery
