package entrypoint

const builtinsDoc = `
[console_scripts]
guild = guild.main_bootstrap:main

[guild.plugins]
cpu = guild.plugins.cpu:CPUPlugin
disk = guild.plugins.disk:DiskPlugin
gpu = guild.plugins.gpu:GPUPlugin
keras = guild.plugins.keras:KerasPlugin
memory = guild.plugins.memory:MemoryPlugin
perf = guild.plugins.perf:PerfPlugin
skopt = guild.plugins.skopt:SkoptPlugin

[guild.namespaces]
gpkg = guild.namespace:gpkg
pypi = guild.namespace:pypi

[guild.python.flags]
argparse = guild.plugins.python_flags:ArgparseFlagsParser
click = guild.plugins.python_flags:ClickFlagsParser

[guild.remotetypes]
local = guild.remotes.local:LocalRemote
s3 = guild.remotes.s3:S3Remote
`

// Builtins returns the registry shipped with the CLI, used when a
// project provides no registry document of its own.
func Builtins() *Registry {
	reg, err := parseBytes([]byte(builtinsDoc))
	if err != nil {
		panic(err)
	}
	return reg
}
