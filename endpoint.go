// SPDX-License-Identifier: GPL-3.0-or-later

package relay

// NewEndpointFunc returns a [Func] that always returns the given
// host:port address.
//
// The design application is addressed by name (usually "localhost"),
// hence the address is a string rather than a [netip.AddrPort] and the
// [Dialer] takes care of resolving it.
func NewEndpointFunc(address string) Func[Unit, string] {
	return ConstFunc(address)
}
