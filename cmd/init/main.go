// The init program supervises a process namespace as its pid 1, reaping orphaned children.
package main

import "git.ophivana.moe/security/crossing/supervisor"

func main() { supervisor.Main() }
