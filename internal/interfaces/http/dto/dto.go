// Package dto converts between the wire-format types in pkg/api and the
// domain types the core operates on, keeping the HTTP boundary the only
// place that knows about JSON tags and base64 encoding.
package dto

import (
	"convroute/internal/domain/format"
	"convroute/internal/domain/graph"
	"convroute/internal/domain/handler"
	"convroute/pkg/api"
)

// FilesFromRequest converts the request's file list into handler.File.
func FilesFromRequest(in []api.FileDTO) []handler.File {
	out := make([]handler.File, len(in))
	for i, f := range in {
		out[i] = handler.File{Name: f.Name, Bytes: f.Content}
	}
	return out
}

// FilesToResponse converts a conversion result's output files into the wire
// representation.
func FilesToResponse(in []handler.File) []api.FileDTO {
	out := make([]api.FileDTO, len(in))
	for i, f := range in {
		out[i] = api.FileDTO{Name: f.Name, Content: f.Bytes}
	}
	return out
}

// PathToResponse flattens a handler.Path into the hop list a client can
// render as a breadcrumb trail.
func PathToResponse(path handler.Path) []api.PathHop {
	hops := make([]api.PathHop, len(path))
	for i, node := range path {
		name := ""
		if node.Handler != nil {
			name = node.Handler.Name()
		}
		hops[i] = api.PathHop{Handler: name, MIME: node.Format.MIME}
	}
	return hops
}

// OptionToResponse converts one registry option into a format listing entry.
func OptionToResponse(opt handler.Option) api.FormatResponse {
	fd := opt.Format
	handlerName := ""
	if opt.Handler != nil {
		handlerName = opt.Handler.Name()
	}
	return api.FormatResponse{
		Handler:    handlerName,
		Name:       fd.Name,
		Format:     fd.Format,
		Extension:  fd.Extension,
		MIME:       fd.MIME,
		From:       fd.From,
		To:         fd.To,
		Lossless:   fd.Lossless,
		Categories: fd.Categories,
	}
}

// GraphToResponse flattens a graph snapshot into its wire form.
func GraphToResponse(data graph.Data) api.GraphResponse {
	resp := api.GraphResponse{Vertices: make([]string, len(data.Vertices))}
	for i, v := range data.Vertices {
		resp.Vertices[i] = v.MIME
	}
	for _, e := range data.Edges {
		resp.Edges = append(resp.Edges, api.GraphEdgeDTO{
			From:    e.From.MIME,
			To:      e.To.MIME,
			Handler: e.HandlerName,
			Cost:    e.Cost,
		})
	}
	return resp
}

// DescriptorFromMIME builds a minimal Descriptor for search lookups, where
// only the MIME type is known from the request.
func DescriptorFromMIME(mime string) format.Descriptor {
	return format.Descriptor{MIME: format.Normalize(mime)}
}
