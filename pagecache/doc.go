// Package pagecache keeps loaded pages of one open document, bounded by
// a maximum number of resident pages.
//
// Pages are loaded lazily on first use. Each slot is in one of three
// states: unloaded, loaded or failed. A failed load is remembered and
// returned on every later request for that page without calling the
// loader again, since load failures are deterministic and retries are
// expensive.
//
// When inserting a freshly loaded page would exceed the bound, the
// least recently used page is closed and its slot returns to unloaded.
// Recency is tracked with a logical clock that advances on every
// successful Get.
//
// A Cache is not safe for concurrent use.
package pagecache
