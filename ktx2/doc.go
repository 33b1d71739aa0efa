/*
Package ktx2 parses KTX2 texture containers.

A KTX2 file carries a fixed header (dimensions, layer/face/level counts,
supercompression scheme), a level index, a data format descriptor that
identifies the payload codec (ETC1S/BasisLZ or UASTC), and per-level
payloads that may be Zstandard-supercompressed.

The package exposes the container shape and hands out per-level payload
bytes with Zstandard inflation applied. It does not decode blocks; that is
the job of the universal codec layer on top of it.
*/
package ktx2
