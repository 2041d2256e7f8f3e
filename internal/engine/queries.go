package engine

import (
	"driver/internal/apperrors"
	"driver/internal/producers"
	"driver/internal/query"
)

// QueryReadFile evaluates the ReadFile leaf producer.
func (e *Engine) QueryReadFile(c *Context, k query.ReadFileKey) query.Result[query.Object] {
	return evaluate(c, e.readFile, &e.readFileGroup, k, e.produceReadFile)
}

func (e *Engine) produceReadFile(_ *Context, k query.ReadFileKey) query.Result[query.Object] {
	b, err := producers.ReadFile(e.root, k.Path)
	if err != nil {
		return query.Err[query.Object](toAppError(err))
	}
	return query.Ok[query.Object](e.objects.Store(b))
}

// QueryListDirectory evaluates the ListDirectory leaf producer.
func (e *Engine) QueryListDirectory(c *Context, k query.ListDirectoryKey) query.Result[query.PathList] {
	return evaluate(c, e.listDir, &e.listDirGroup, k, e.produceListDirectory)
}

func (e *Engine) produceListDirectory(_ *Context, k query.ListDirectoryKey) query.Result[query.PathList] {
	names, err := producers.ListDirectory(e.root, k.Path, e.ignore)
	if err != nil {
		return query.Err[query.PathList](toAppError(err))
	}
	return query.Ok[query.PathList](query.PathList(names))
}

// QueryMarkdownToHtml evaluates the MarkdownToHtml derived producer.
func (e *Engine) QueryMarkdownToHtml(c *Context, k query.MarkdownToHtmlKey) query.Result[query.Object] {
	return evaluate(c, e.mdToHtml, &e.mdToHtmlGroup, k, e.produceMarkdownToHtml)
}

func (e *Engine) produceMarkdownToHtml(_ *Context, k query.MarkdownToHtmlKey) query.Result[query.Object] {
	raw, ok := e.objects.Get(k.Input)
	if !ok {
		return query.Err[query.Object](apperrors.NewInternal("MarkdownToHtml: missing input object "+k.Input.String(), nil))
	}
	return query.Ok[query.Object](e.objects.Store(producers.MarkdownToHtml(raw)))
}

// QueryMinifyHtml evaluates the MinifyHtml derived producer.
func (e *Engine) QueryMinifyHtml(c *Context, k query.MinifyHtmlKey) query.Result[query.Object] {
	return evaluate(c, e.minifyHtml, &e.minifyHtmlGroup, k, e.produceMinifyHtml)
}

func (e *Engine) produceMinifyHtml(_ *Context, k query.MinifyHtmlKey) query.Result[query.Object] {
	raw, ok := e.objects.Get(k.Input)
	if !ok {
		return query.Err[query.Object](apperrors.NewInternal("MinifyHtml: missing input object "+k.Input.String(), nil))
	}
	return query.Ok[query.Object](e.objects.Store(producers.MinifyHtml(raw)))
}

// QueryRunScript evaluates a user script against the embedded host.
// The script itself is an external collaborator; RunScript only owns
// dispatching to the registered producers.Script and collecting its
// queued WriteOutput calls.
func (e *Engine) QueryRunScript(c *Context, k query.RunScriptKey) query.Result[query.RunScriptOutput] {
	return evaluate(c, e.runScript, &e.runScriptGroup, k, e.produceRunScript)
}

func (e *Engine) produceRunScript(c *Context, k query.RunScriptKey) query.Result[query.RunScriptOutput] {
	script, ok := e.scripts[k.Path]
	if !ok {
		return query.Err[query.RunScriptOutput](apperrors.NewProducer("no script registered for "+k.Path, nil))
	}
	host := &hostAdapter{ctx: c}
	value, err := script.Run(host, k.Args)
	if err != nil {
		return query.Err[query.RunScriptOutput](toAppError(err))
	}
	return query.Ok(query.RunScriptOutput{Value: value, Outputs: host.outputs})
}

// QueryFetchUrl evaluates the FetchUrl leaf producer: a network-facing
// input guarded by the engine's circuit breaker rather than retried
// unconditionally.
func (e *Engine) QueryFetchUrl(c *Context, k query.FetchUrlKey) query.Result[query.Object] {
	return evaluate(c, e.fetchUrl, &e.fetchUrlGroup, k, e.produceFetchUrl)
}

func (e *Engine) produceFetchUrl(c *Context, k query.FetchUrlKey) query.Result[query.Object] {
	b, err := producers.FetchURL(c.Std(), e.httpClient, e.breaker, k.URL)
	if err != nil {
		return query.Err[query.Object](toAppError(err))
	}
	return query.Ok[query.Object](e.objects.Store(b))
}

// toAppError classifies err as an *apperrors.AppError, wrapping it as
// Internal if it isn't one already.
func toAppError(err error) *apperrors.AppError {
	if ae, ok := err.(*apperrors.AppError); ok {
		return ae
	}
	wrapped := apperrors.Wrap(err, "producer failure")
	ae, _ := wrapped.(*apperrors.AppError)
	return ae
}
