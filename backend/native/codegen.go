package native

import (
	"bytes"
	"fmt"
	"strconv"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/expr"
)

// cfloat renders a float64 as a C double literal with enough digits to
// round-trip.
func cfloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// generateSource emits a standalone C program that samples doc's
// function over grid and writes the raster to outname. The function
// body is the scalar translation of the document's expression; rows
// are filled bottom-up by NTHREADS pthreads and written top-down
// through libpng, with the resolution declared in a pHYs chunk.
func generateSource(doc *frep.Document, grid *frep.Grid, dpi, threads int, outname string) []byte {
	var buf bytes.Buffer

	emitHeader(&buf, doc, grid, dpi, threads, outname)
	emitFn(&buf, doc.Function)
	emitFill(&buf, len(doc.Layers))
	emitWritePNG(&buf)
	emitMain(&buf)

	return buf.Bytes()
}

func emitHeader(buf *bytes.Buffer, doc *frep.Document, grid *frep.Grid, dpi, threads int, outname string) {
	fmt.Fprintf(buf, "#include <stdio.h>\n")
	fmt.Fprintf(buf, "#include <stdlib.h>\n")
	fmt.Fprintf(buf, "#include <stdint.h>\n")
	fmt.Fprintf(buf, "#include <math.h>\n")
	fmt.Fprintf(buf, "#include <setjmp.h>\n")
	fmt.Fprintf(buf, "#include <pthread.h>\n")
	fmt.Fprintf(buf, "#include <png.h>\n\n")

	fmt.Fprintf(buf, "#define NX %d\n", grid.Width())
	fmt.Fprintf(buf, "#define NY %d\n", grid.Height())
	fmt.Fprintf(buf, "#define NTHREADS %d\n", threads)
	fmt.Fprintf(buf, "#define NLAYERS %d\n\n", len(doc.Layers))

	fmt.Fprintf(buf, "static const double delta = %s;\n", cfloat(grid.Delta))
	fmt.Fprintf(buf, "static const double xmin0 = %s;\n", cfloat(doc.XMin))
	fmt.Fprintf(buf, "static const double ymin0 = %s;\n", cfloat(doc.YMin))

	fmt.Fprintf(buf, "static const double zs[NLAYERS] = {")
	for i, z := range doc.Layers {
		if i > 0 {
			fmt.Fprintf(buf, ", ")
		}
		fmt.Fprintf(buf, "%s", cfloat(z))
	}
	fmt.Fprintf(buf, "};\n")

	zmin, zmax := doc.ZRange()
	fmt.Fprintf(buf, "static const uint32_t tints[NLAYERS] = {")
	for i, z := range doc.Layers {
		if i > 0 {
			fmt.Fprintf(buf, ", ")
		}
		fmt.Fprintf(buf, "0x%06xu", frep.LayerIntensity(z, zmin, zmax))
	}
	fmt.Fprintf(buf, "};\n")

	fmt.Fprintf(buf, "static const png_uint_32 ppm = %d;\n", frep.PixelsPerMeter(dpi))
	fmt.Fprintf(buf, "static const char *outname = %q;\n\n", outname)

	fmt.Fprintf(buf, "static uint32_t *img;\n\n")
}

func emitFn(buf *bytes.Buffer, function string) {
	fmt.Fprintf(buf, "static double fn(double x, double y, double z) {\n")
	fmt.Fprintf(buf, "\treturn %s;\n", expr.Translate(function))
	fmt.Fprintf(buf, "}\n\n")
}

// emitFill writes the per-thread row-band loop. Row iy counts up from
// ymin, so memory holds the image bottom-up; write_png flips it.
func emitFill(buf *bytes.Buffer, layers int) {
	fmt.Fprintf(buf, "static void *fill(void *arg) {\n")
	fmt.Fprintf(buf, "\tlong t = (long) arg;\n")
	fmt.Fprintf(buf, "\tlong lo = t * NY / NTHREADS, hi = (t + 1) * NY / NTHREADS;\n")
	fmt.Fprintf(buf, "\tfor (long iy = lo; iy < hi; iy++) {\n")
	fmt.Fprintf(buf, "\t\tdouble y = ymin0 + delta * iy;\n")
	fmt.Fprintf(buf, "\t\tuint32_t *row = img + iy * NX;\n")
	fmt.Fprintf(buf, "\t\tfor (long ix = 0; ix < NX; ix++) {\n")
	fmt.Fprintf(buf, "\t\t\tdouble x = xmin0 + delta * ix;\n")
	if layers == 1 {
		fmt.Fprintf(buf, "\t\t\trow[ix] = (uint32_t) fn(x, y, zs[0]);\n")
	} else {
		fmt.Fprintf(buf, "\t\t\tuint32_t acc = 0;\n")
		fmt.Fprintf(buf, "\t\t\tfor (int l = 0; l < NLAYERS; l++)\n")
		fmt.Fprintf(buf, "\t\t\t\tacc += tints[l] & (uint32_t) fn(x, y, zs[l]);\n")
		fmt.Fprintf(buf, "\t\t\trow[ix] = acc;\n")
	}
	fmt.Fprintf(buf, "\t\t}\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn NULL;\n")
	fmt.Fprintf(buf, "}\n\n")
}

func emitWritePNG(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "static int write_png(void) {\n")
	fmt.Fprintf(buf, "\tFILE *fp = fopen(outname, \"wb\");\n")
	fmt.Fprintf(buf, "\tif (!fp) return 1;\n")
	fmt.Fprintf(buf, "\tpng_structp png = png_create_write_struct(PNG_LIBPNG_VER_STRING, NULL, NULL, NULL);\n")
	fmt.Fprintf(buf, "\tif (!png) { fclose(fp); return 1; }\n")
	fmt.Fprintf(buf, "\tpng_infop info = png_create_info_struct(png);\n")
	fmt.Fprintf(buf, "\tif (!info) { png_destroy_write_struct(&png, NULL); fclose(fp); return 1; }\n")
	fmt.Fprintf(buf, "\tif (setjmp(png_jmpbuf(png))) { png_destroy_write_struct(&png, &info); fclose(fp); return 1; }\n")
	fmt.Fprintf(buf, "\tpng_init_io(png, fp);\n")
	fmt.Fprintf(buf, "\tpng_set_IHDR(png, info, NX, NY, 8, PNG_COLOR_TYPE_RGBA,\n")
	fmt.Fprintf(buf, "\t\tPNG_INTERLACE_NONE, PNG_COMPRESSION_TYPE_DEFAULT, PNG_FILTER_TYPE_DEFAULT);\n")
	fmt.Fprintf(buf, "\tpng_set_pHYs(png, info, ppm, ppm, PNG_RESOLUTION_METER);\n")
	fmt.Fprintf(buf, "\tpng_write_info(png, info);\n")
	fmt.Fprintf(buf, "\tpng_bytep row = malloc((size_t) NX * 4);\n")
	fmt.Fprintf(buf, "\tif (!row) { png_destroy_write_struct(&png, &info); fclose(fp); return 1; }\n")
	fmt.Fprintf(buf, "\tfor (long iy = NY - 1; iy >= 0; iy--) {\n")
	fmt.Fprintf(buf, "\t\tconst uint32_t *src = img + iy * NX;\n")
	fmt.Fprintf(buf, "\t\tfor (long ix = 0; ix < NX; ix++) {\n")
	fmt.Fprintf(buf, "\t\t\tuint32_t v = src[ix];\n")
	fmt.Fprintf(buf, "\t\t\trow[ix*4+0] = (png_byte) (v & 255);\n")
	fmt.Fprintf(buf, "\t\t\trow[ix*4+1] = (png_byte) ((v >> 8) & 255);\n")
	fmt.Fprintf(buf, "\t\t\trow[ix*4+2] = (png_byte) ((v >> 16) & 255);\n")
	fmt.Fprintf(buf, "\t\t\trow[ix*4+3] = 255;\n")
	fmt.Fprintf(buf, "\t\t}\n")
	fmt.Fprintf(buf, "\t\tpng_write_row(png, row);\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\tpng_write_end(png, NULL);\n")
	fmt.Fprintf(buf, "\tfree(row);\n")
	fmt.Fprintf(buf, "\tpng_destroy_write_struct(&png, &info);\n")
	fmt.Fprintf(buf, "\treturn fclose(fp) ? 1 : 0;\n")
	fmt.Fprintf(buf, "}\n\n")
}

func emitMain(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "int main(void) {\n")
	fmt.Fprintf(buf, "\timg = calloc((size_t) NX * NY, sizeof *img);\n")
	fmt.Fprintf(buf, "\tif (!img) { fprintf(stderr, \"out of memory\\n\"); return 1; }\n")
	fmt.Fprintf(buf, "\tpthread_t threads[NTHREADS];\n")
	fmt.Fprintf(buf, "\tfor (long t = 0; t < NTHREADS; t++) {\n")
	fmt.Fprintf(buf, "\t\tif (pthread_create(&threads[t], NULL, fill, (void *) t) != 0) {\n")
	fmt.Fprintf(buf, "\t\t\tfprintf(stderr, \"thread create failed\\n\");\n")
	fmt.Fprintf(buf, "\t\t\treturn 1;\n")
	fmt.Fprintf(buf, "\t\t}\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\tfor (long t = 0; t < NTHREADS; t++)\n")
	fmt.Fprintf(buf, "\t\tpthread_join(threads[t], NULL);\n")
	fmt.Fprintf(buf, "\tif (write_png() != 0) {\n")
	fmt.Fprintf(buf, "\t\tfprintf(stderr, \"write %%s failed\\n\", outname);\n")
	fmt.Fprintf(buf, "\t\treturn 1;\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn 0;\n")
	fmt.Fprintf(buf, "}\n")
}
