// Package platform describes the operating-system conventions the resolver
// and the invoker depend on.
//
// A Profile is chosen once, usually with Current, and then consulted instead
// of branching on runtime.GOOS:
//
//	p := platform.Current()
//	if p.RequiresShell(path) {
//	    shell := p.ShellFor(path)
//	    argv := shell.Argv(p.ShellPath(path), args)
//	    // spawn shell.Program with argv
//	}
//
// Three families are modelled: native Unix-like systems, native Windows and
// Linux hosted by the Windows Subsystem for Linux, where the Windows drive is
// reachable under BridgeMountPoint.
package platform
