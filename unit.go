// SPDX-License-Identifier: GPL-3.0-or-later

package relay

// Unit is a type not containing any value (analogous to an
// explicit `void` type in C and C++).
//
// Use this type to construct [Func] that take no argument, such as the
// head of the dial pipeline built by [*Conn], or operations that return
// nothing to the caller of [Execute].
type Unit struct{}
