/*
Command imf validates, normalizes and composes Internet messages, as defined
by RFC 5322.

	usage: imf [-loglevel level] [-logfmt] ...
	       imf parse [file]
	       imf check [file ...]
	       imf mbox check file
	       imf addr addresslist ...
	       imf datetime datetime
	       imf compose -from address [-to addresses] [-subject text] ...
	       imf serve [-config imf.conf]
	       imf config describe
	       imf version
	       imf help [command ...]

Parsing is strict and format-only: a message is accepted only when the whole
input matches the message grammar, and no semantic interpretation is done.
Serializing a parsed message normalizes folded whitespace to single spaces
and field names to their canonical capitalization.
*/
package main
