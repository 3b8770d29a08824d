/*
Package console is the interactive command shell over a storage.Registry.

Commands are read one per line:

	create <Class>
	show <Class> <id>
	destroy <Class> <id>
	all [<Class>]
	count <Class>
	update <Class> <id> <attribute> "<value>"
	quit | EOF | help [<command>]

The dot forms <Class>.all(), <Class>.count(), <Class>.show("<id>"),
<Class>.destroy("<id>"), <Class>.update("<id>", "<attribute>", "<value>")
and <Class>.update("<id>", {"<attribute>": <value>, ...}) are rewritten to
the commands above.

The console is the only layer that prints. Engine errors are mapped to the
"** ... **" messages here.
*/
package console
