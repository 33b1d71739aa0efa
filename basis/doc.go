/*
Package basis is the universal texture codec layer sitting between a KTX2
container and a GPU format. A container stores blocks in one of two
codec-agnostic intermediate encodings (ETC1S or UASTC); a Transcoder
session turns the blocks of each mip level into one concrete target block
format chosen by the caller.

The bit-level block math is pluggable through the BlockCodec interface;
the package owns the session protocol, the target format vocabulary, block
size accounting, and the source/target support matrix.
*/
package basis
