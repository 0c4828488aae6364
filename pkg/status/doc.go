/*
Package status manages the file system side of in-place patching and
tracks per-file outcomes for patchrc.

	            +-------------+
	            |   Status    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Reports |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads target files and remembers their permissions
- Rewrites files in place atomically (temp file + rename)
- Tracks patch outcomes (patched, unchanged, pending, error)
- Reports per-file status and overall progress

🤝 Interfaces:
- FileManager: file operations
- StatusReporter: outcome tracking and progress
- FileFormatter: presentation of status messages
*/
package status
