package processor

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"eplus-sqlresult/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DataByOutputNames reconstructs several groups of outputs, one collection
// per group in the order of groups. Up to the configured number of workers
// run at the same time, each with its own connections.
func (r *Result) DataByOutputNames(groups [][]string) ([]Collection, error) {
	timer := time.Now()
	collections := make([]Collection, len(groups))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, names := range groups {
		i, names := i, names
		g.Go(func() error {
			c, err := r.DataByOutputName(names...)
			if err != nil {
				return err
			}
			collections[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"groups": len(groups), "workers": r.workers}).
		Debug("Time since DataByOutputNames started: ", time.Since(timer))
	return collections, nil
}

// ParseOutputNames turns command line arguments into output groups. An
// argument written as a JSON-like array ("[a, b]") is one group of several
// names.
func ParseOutputNames(args []string) [][]string {
	groups := make([][]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if !strings.HasPrefix(arg, "[") {
			groups = append(groups, []string{arg})
			continue
		}
		var names []string
		for _, name := range strings.Split(strings.Trim(arg, "[]"), ",") {
			name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
			if name != "" {
				names = append(names, name)
			}
		}
		groups = append(groups, names)
	}
	return groups
}

//renameFiles changes the extension of the files in the given folder
func renameFiles(folderName string, oldExtension string, newExtension string) ([]string, error) {
	var filenames []string

	files, err := os.ReadDir(folderName)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == oldExtension {
			filename := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			err := os.Rename(filepath.Join(folderName, file.Name()), filepath.Join(folderName, filename+newExtension))
			if err != nil {
				log.Error(err)
				return filenames, err
			}
			filenames = append(filenames, filename+newExtension)
			log.Debug("File created: ", filename+newExtension)
		}
	}
	return filenames, nil
}

//RemoveFiles removes the files with the given extension in the given folder
func RemoveFiles(folderName string, extension string) error {
	files, err := os.ReadDir(folderName)
	if err != nil {
		log.Error(err)
		return err
	}
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == extension {
			err := os.Remove(filepath.Join(folderName, file.Name()))
			if err != nil {
				log.Error(err)
				return err
			}
		}
	}
	return nil
}

// requireMatch fails when none of the requested outputs matched the model.
func requireMatch(op string, matched ...[]models.MatchedSeries) error {
	for _, m := range matched {
		if len(m) > 0 {
			return nil
		}
	}
	e := models.NoMatchError(op, "none of the requested outputs could be matched to the model")
	log.Error(e)
	return e
}
