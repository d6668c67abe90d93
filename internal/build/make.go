package build

import "github.com/darwinbeing/fabrics/internal/models"

// GenerateTarget is the makefile target that elaborates the test instances.
const GenerateTarget = "generate_instances"

// CleanInvocation clears previous build products in the design's test directory.
func CleanInvocation(d models.Design, root string) Invocation {
	return Invocation{Dir: d.TestDir(root), Targets: []string{"clean"}}
}

// GenerateInvocation builds the design's test instances from its parameter file.
func GenerateInvocation(d models.Design, root string) Invocation {
	return Invocation{
		Dir: d.TestDir(root),
		Vars: []string{
			"TOP_FILE=" + d.TopFile,
			"TOP_MODULE=" + d.TopModule,
		},
		Targets: []string{GenerateTarget},
	}
}
