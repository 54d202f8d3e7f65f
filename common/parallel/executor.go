// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parallel

import (
	"context"
	"runtime"
)

// Executor runs a batch of independent jobs. Jobs must not depend on each other or on
// the order in which they complete.
type Executor interface {
	Run(ctx context.Context, nJobs int, worker func(workerId, jobId int) error) error
	Workers() int
}

// Sequential runs jobs one by one on the calling goroutine, in job order.
type Sequential struct{}

func (Sequential) Run(ctx context.Context, nJobs int, worker func(workerId, jobId int) error) error {
	return Parallel(ctx, nJobs, 1, worker)
}

func (Sequential) Workers() int {
	return 1
}

// WorkerPool runs jobs on a fixed number of goroutines.
type WorkerPool struct {
	size int
}

func NewWorkerPool(size int) *WorkerPool {
	return &WorkerPool{size: max(size, 1)}
}

func (p *WorkerPool) Run(ctx context.Context, nJobs int, worker func(workerId, jobId int) error) error {
	return Parallel(ctx, nJobs, p.size, worker)
}

func (p *WorkerPool) Workers() int {
	return p.size
}

// NewExecutor creates an executor with n workers. Zero means one worker per CPU.
func NewExecutor(n int) Executor {
	if n == 0 {
		n = runtime.NumCPU()
	}
	if n <= 1 {
		return Sequential{}
	}
	return NewWorkerPool(n)
}
