// Package interp provides fractional interpolation kernels:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic (Hermite) interpolation
//
// Linear2 is the kernel the delay lines use; its smearing is acceptable
// at the sub-sample delays involved and it keeps the read path
// branch-free. The delay lines offer no Hermite4 mode.
package interp
