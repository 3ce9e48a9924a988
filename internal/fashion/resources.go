package fashion

import (
	"net/url"

	"github.com/born-ml/datasets/internal/dataset"
)

// Geometry of every Fashion-MNIST image.
const (
	Rows       = 28
	Cols       = 28
	NumClasses = 10
)

// Published split sizes.
const (
	TrainSize = 60000
	TestSize  = 10000
)

// DefaultMirrors are tried in order when a split is fetched.
var DefaultMirrors = []string{
	"http://fashion-mnist.s3-website.eu-central-1.amazonaws.com/",
}

// Classes lists the label names, indexed by label.
var Classes = [NumClasses]string{
	"T-shirt/top",
	"Trouser",
	"Pullover",
	"Dress",
	"Coat",
	"Sandal",
	"Shirt",
	"Sneaker",
	"Bag",
	"Ankle boot",
}

// Resource is one archive of the dataset.
type Resource struct {
	File string
	MD5  string
}

type splitResources struct {
	Images Resource
	Labels Resource
}

var resources = map[dataset.Split]splitResources{
	dataset.Train: {
		Images: Resource{"train-images-idx3-ubyte.gz", "8d4fb7e6c68d591d4c3dfef9ec88bf0d"},
		Labels: Resource{"train-labels-idx1-ubyte.gz", "25c81989df183df01b3e8a0aad5dffbe"},
	},
	dataset.Test: {
		Images: Resource{"t10k-images-idx3-ubyte.gz", "bef4ecab320f06d8554ea6380940ec79"},
		Labels: Resource{"t10k-labels-idx1-ubyte.gz", "bb300cfdad3c16e7a12a480ee83cd310"},
	},
}

// Resources returns the image and label archives of split.
func Resources(split dataset.Split) (images, labels Resource) {
	r := resources[split]
	return r.Images, r.Labels
}

func mirrorURLs(mirrors []string, file string) []string {
	urls := make([]string, 0, len(mirrors))
	for _, m := range mirrors {
		u, err := url.JoinPath(m, file)
		if err != nil {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}
