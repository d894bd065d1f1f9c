/*
Package bite decodes game texture and material formats for modding tools.

Supported texture containers: DDS (including the DX10 extension and the
Enfusion EDDS variant with LZ4-compressed mip blocks), Valve VTF, PowerVR
PVR (both the legacy Dreamcast PVRT layout and PVR3), and Dreamcast VMU
save icons (VMS). Material descriptors: Valve VMT key-values and the
JSON-based Matl format.

Every texture decoder parses a complete in-memory buffer into an immutable
Texture: a header plus an eagerly resolved index of raw mip payloads
addressable by MipIndex (mip level, frame or slice, cubemap face). Pixel
data is returned exactly as stored, block-compressed or not; decompressing
BCn/PVRTC payloads to RGBA is left to the caller. No format is written
back, only read.

A parsed Texture has no internal mutable state and may be shared across
goroutines without synchronization.
*/
package bite
