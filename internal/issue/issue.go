// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	VFSNotFoundId Id = iota + 1
	VFSUnreadableId
	VFSMalformedId
	VFSInvalidStructureId
	ScriptNotFoundId
	ScriptAbortedId
	ConfigLoadFailedId
	SSHServerStartFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// Issue is a catalog entry with remediation guidance.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the Markdown for a terminal using a glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(style string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg)), style)
}

var (
	render = glamour.Render

	vfsNotFoundIssue = &Issue{
		id: VFSNotFoundId,
		mdMsg: `
# VFS document not found

The shell started with an empty root directory because the document passed
with ` + "`--vfs`" + ` (or ` + "`vfs.path`" + ` in the config) does not exist.

## Things you can try:
- Check the path for typos; relative paths are resolved from the current directory
- Create a minimal document:
~~~json
{"/": {"type": "directory", "content": {}}}
~~~`,
	}

	vfsUnreadableIssue = &Issue{
		id: VFSUnreadableId,
		mdMsg: `
# VFS document cannot be read

The document exists but could not be read. The shell is using an empty root
directory.

## Things you can try:
- Check the file permissions
- Make sure the path names a file, not a directory`,
	}

	vfsMalformedIssue = &Issue{
		id: VFSMalformedId,
		mdMsg: `
# VFS document is not valid JSON

The document could not be parsed. The shell is using an empty root directory.

## Things you can try:
- Validate the file with a JSON linter
- Look for trailing commas and unquoted keys
- Documents larger than 16 MiB are rejected`,
	}

	vfsInvalidStructureIssue = &Issue{
		id: VFSInvalidStructureId,
		mdMsg: `
# VFS document has an invalid structure

The JSON parsed, but it does not describe a filesystem tree.

## Expected shape:
~~~json
{
  "/": {
    "type": "directory",
    "content": {
      "readme.txt": {"type": "file", "content": "hello\n"},
      "docs": {"type": "directory", "content": {}}
    }
  }
}
~~~

## Rules:
- The root must be an object with a ` + "`\"/\"`" + ` key of type ` + "`directory`" + `
- Every node has ` + "`type`" + ` set to ` + "`file`" + ` or ` + "`directory`" + `
- File content is a string; directory content is an object
- Names must not be empty, ` + "`.`" + `, ` + "`..`" + ` or contain ` + "`/`",
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found

The script file passed to ` + "`vfsh run`" + ` or ` + "`--script`" + ` does not exist.

## Things you can try:
- Check the path; scripts live on the real filesystem, not in the VFS
- A script is plain text with one command per line; blank lines and lines
  starting with ` + "`#`" + ` are skipped`,
	}

	scriptAbortedIssue = &Issue{
		id: ScriptAbortedId,
		mdMsg: `
# Script aborted

A line raised a fatal error and the remaining lines were not executed.

## Things you can try:
- The ` + "`error`" + ` command always aborts a script; remove it if it was left in by mistake
- Run the failing line in the interactive shell to inspect it`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try:
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ vfsh config show
~~~
- Write a fresh default file:
~~~
$ vfsh config init
~~~`,
	}

	sshServerStartFailedIssue = &Issue{
		id: SSHServerStartFailedId,
		mdMsg: `
# SSH server failed to start

## Things you can try:
- Choose another port with ` + "`--port`" + `, or 0 to pick a free one
- Check that the host key path is writable; a missing key is generated
- Ports below 1024 usually need elevated privileges`,
	}

	issues = map[Id]*Issue{
		vfsNotFoundIssue.Id():          vfsNotFoundIssue,
		vfsUnreadableIssue.Id():        vfsUnreadableIssue,
		vfsMalformedIssue.Id():         vfsMalformedIssue,
		vfsInvalidStructureIssue.Id():  vfsInvalidStructureIssue,
		scriptNotFoundIssue.Id():       scriptNotFoundIssue,
		scriptAbortedIssue.Id():        scriptAbortedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		sshServerStartFailedIssue.Id(): sshServerStartFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
