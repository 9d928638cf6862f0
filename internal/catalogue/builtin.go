package catalogue

// Builtin returns a catalogue pre-populated with small, illustrative
// subsets of a handful of common command-line tools.
//
// These are deliberately not exhaustive clones of the real tools' CLIs:
// spec.md explicitly scopes exhaustive per-command catalogue contents as
// an external collaborator. They exist so the engine, predictor, and
// navigator have realistic structure (aliases, value-taking flags,
// dynamic producers) to exercise.
func Builtin(dynamic DynamicProducers) *Catalogue {
	c := New()
	c.Register(gitCommand(dynamic))
	c.Register(dockerCommand(dynamic))
	c.Register(kubectlCommand(dynamic))
	c.Register(npmCommand())
	c.Register(cdCommand())
	return c
}

// DynamicProducers supplies the external probes used by dynamic
// arguments in the builtin catalogue. Tests and the completer binary
// provide different implementations: the former stub out fixed data, the
// latter shells out to the real tools via package probe.
type DynamicProducers struct {
	GitBranches   Producer
	GitRemotes    Producer
	DockerImages  Producer
	DockerPS      Producer
	KubeResources Producer
	KubeNamespace Producer
}

func gitCommand(d DynamicProducers) *Node {
	branchArg := NewParameter("--branch", WithAlias("-b"), RequiresValue(),
		WithTooltip("branch to operate on"), WithDynamic(d.GitBranches))

	checkout := NewCommand("checkout", WithAlias("co"),
		WithTooltip("switch branches"),
		WithParameters(
			NewParameter("--track", WithTooltip("set up tracking")),
			NewParameter("-b", WithTooltip("create and checkout a new branch"), RequiresValue()),
		),
		WithDynamic(d.GitBranches),
	)

	commit := NewCommand("commit",
		WithTooltip("record changes to the repository"),
		WithParameters(
			NewParameter("--all", WithAlias("-a"), WithTooltip("commit all modified files")),
			NewParameter("--message", WithAlias("-m"), RequiresValue(), WithTooltip("commit message")),
			NewParameter("--amend", WithTooltip("amend previous commit")),
		),
	)

	push := NewCommand("push",
		WithTooltip("update remote refs"),
		WithParameters(
			NewParameter("--force", WithAlias("-f"), WithTooltip("force update")),
			NewParameter("--set-upstream", WithAlias("-u"), WithTooltip("set upstream for pushed branch")),
		),
		WithDynamic(d.GitRemotes),
	)

	submit := NewCommand("submit", WithTooltip("submit a stack of changes"))
	sync := NewCommand("sync", WithTooltip("synchronize branches with upstream"))

	branch := NewCommand("branch",
		WithTooltip("list, create, or delete branches"),
		WithParameters(
			NewParameter("--delete", WithAlias("-d"), WithTooltip("delete a branch")),
			branchArg,
		),
		WithDynamic(d.GitBranches),
	)

	return NewCommand("git",
		WithTooltip("the stupid content tracker"),
		WithCommands(checkout, commit, push, submit, sync, branch),
		WithParameters(
			NewParameter("--version", WithTooltip("print version")),
			NewParameter("--help", WithTooltip("print help")),
		),
	)
}

func dockerCommand(d DynamicProducers) *Node {
	run := NewCommand("run",
		WithTooltip("run a command in a new container"),
		WithParameters(
			NewParameter("--detach", WithAlias("-d"), WithTooltip("run in background")),
			NewParameter("--name", RequiresValue(), WithTooltip("assign a name")),
			NewParameter("--image", RequiresValue(), WithDynamic(d.DockerImages)),
		),
		WithDynamic(d.DockerImages),
	)

	ps := NewCommand("ps",
		WithTooltip("list containers"),
		WithParameters(
			NewParameter("--all", WithAlias("-a"), WithTooltip("show all containers")),
		),
	)

	stop := NewCommand("stop", WithTooltip("stop running containers"), WithDynamic(d.DockerPS))
	logs := NewCommand("logs", WithTooltip("fetch container logs"), WithDynamic(d.DockerPS))

	return NewCommand("docker",
		WithTooltip("container platform"),
		WithCommands(run, ps, stop, logs),
	)
}

func kubectlCommand(d DynamicProducers) *Node {
	get := NewCommand("get",
		WithTooltip("display one or many resources"),
		WithParameters(
			NewParameter("--namespace", WithAlias("-n"), RequiresValue(), WithDynamic(d.KubeNamespace)),
			NewParameter("--output", WithAlias("-o"), RequiresValue(),
				WithStatic(NewArgument("json", "JSON output"), NewArgument("yaml", "YAML output"))),
		),
		WithDynamic(d.KubeResources),
	)

	apply := NewCommand("apply",
		WithTooltip("apply a configuration"),
		WithParameters(
			NewParameter("--filename", WithAlias("-f"), RequiresValue(), WithTooltip("file to apply")),
		),
	)

	return NewCommand("kubectl",
		WithTooltip("kubernetes command-line tool"),
		WithCommands(get, apply),
	)
}

func npmCommand() *Node {
	install := NewCommand("install", WithAlias("i"),
		WithTooltip("install a package"),
		WithParameters(
			NewParameter("--save-dev", WithAlias("-D"), WithTooltip("save as dev dependency")),
			NewParameter("--global", WithAlias("-g"), WithTooltip("install globally")),
		),
	)
	run := NewCommand("run", WithTooltip("run a package script"))
	test := NewCommand("test", WithTooltip("run the test script"))

	return NewCommand("npm",
		WithTooltip("node package manager"),
		WithCommands(install, run, test),
	)
}

// cdCommand registers cd, the only navigation command (§4.7 "Navigation
// command") in the builtin catalogue. Its completions are driven
// entirely by the Smart Navigation Engine rather than a static argument
// list, so the catalogue node is deliberately bare; package navigate
// consults the Knowledge Graph and filesystem directly.
func cdCommand() *Node {
	return NewCommand("cd", WithTooltip("change the current directory"))
}
