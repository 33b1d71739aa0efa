/*
Package ktxreader loads KTX2-compressed textures into engine texture
objects.

The caller registers an ordered list of acceptable GPU internal formats,
then calls Load with the container bytes and the intended color-space
transform. The reader negotiates the single deliverable format — the first
registered format whose implied transform matches, whose transcoder target
the codec can emit, and which the device can sample — transcodes every mip
level into it, and hands each decoded buffer to the texture object together
with a release callback that reclaims it exactly once.

Cubemaps, texture arrays and the uncompressed decode path are not
supported; Load fails loudly for all three.
*/
package ktxreader
