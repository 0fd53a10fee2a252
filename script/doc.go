// SPDX-License-Identifier: EPL-2.0

// Package script drives scene entities from small Lua scripts, so demo
// motion (a source circling the listener, a fly-by) can be changed without
// recompiling.
package script
