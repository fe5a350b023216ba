// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gnn provides the public API for graph neural network layers.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	graph, err := gnn.NewGraph(numNodes, src, dst)
//	model, err := gnn.NewModel(gnn.Config{
//	    InFeatures: 1433,
//	    Hidden:     16,
//	    Classes:    7,
//	    DropoutP:   0.5,
//	    Bias:       true,
//	}, backend)
//	logProbs := model.Forward(features, graph)
package gnn

import (
	"github.com/born-ml/gcn/internal/gnn"
	"github.com/born-ml/gcn/internal/tensor"
)

// Graph is a directed graph given as a node count plus parallel source and
// target index slices.
type Graph = gnn.Graph

// NewGraph creates a graph, validating that both edge list sides have equal
// length and every index is in [0, numNodes).
func NewGraph(numNodes int, src, dst []int32) (*Graph, error) {
	return gnn.NewGraph(numNodes, src, dst)
}

// UndirectedEdges expands edge pairs into a directed edge list holding each
// pair in both directions.
func UndirectedEdges(pairs [][2]int32) (src, dst []int32) {
	return gnn.UndirectedEdges(pairs)
}

// Conv is a normalized graph convolution layer: self-loop augmentation,
// linear transform, symmetric degree normalization, sum aggregation.
type Conv[B tensor.Backend] = gnn.Conv[B]

// NewConv creates a graph convolution layer.
func NewConv[B tensor.Backend](inChannels, outChannels int, bias bool, backend B) (*Conv[B], error) {
	return gnn.NewConv(inChannels, outChannels, bias, backend)
}

// Config describes a two-layer graph convolution classifier.
type Config = gnn.Config

// Model is a two-layer node classifier producing row-wise log-probabilities.
type Model[B tensor.Backend] = gnn.Model[B]

// NewModel creates the two-layer classifier.
func NewModel[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	return gnn.NewModel(cfg, backend)
}
